// Package archive unpacks package archives and finds the binary that
// matches a target framework inside them.
//
// A package archive (.nupkg) is a zip file that usually ships one copy of
// each binary per target framework:
//
//	lib/net40/widget.dll
//	lib/net46/widget.dll
//	tools/widget.exe
//
// [Unpacker] extracts an archive once into a sibling "<archive>.unpack"
// directory and re-extracts only when the archive file is newer than the
// previous extraction. [FindLibrary] and [FindTool] search the extracted
// tree in a fixed location order and [Provide] links the result to its
// destination.
package archive
