// Package workspace discovers the Gradle modules of a workspace and reads
// their build and settings files into an immutable Snapshot.
//
// A directory is a module when it contains build.gradle or
// build.gradle.kts; the Groovy file wins when both exist. Discovery scans
// every directory below the root, skipping DefaultIgnoreDirs and hidden
// directories. The root itself is not a module.
//
//	snap, err := workspace.Discover(ctx, ".", workspace.DiscoverOptions{})
//	for _, m := range snap.Modules {
//	    fmt.Println(m.Name, m.Path, m.Dialect)
//	}
package workspace
