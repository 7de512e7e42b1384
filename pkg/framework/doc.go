// Package framework parses target framework versions and picks the best
// match among the framework folders of a package.
//
// A package archive typically ships one binary per target framework:
//
//	lib/net40/widget.dll
//	lib/net46/widget.dll
//	lib/netstandard2.0/widget.dll
//
// [Parse] understands the short tokens used for these folders ("net45",
// "net4.7.2", "netstandard2.0"). [SelectBest] and [SelectBestName] choose the
// nearest version at or above the desired one within the same family; a
// folder for another family never matches.
package framework
