// Package binary keeps one versioned gadget file installed on disk.
//
// # Install procedure
//
// EnsureInstalled runs these steps in order and stops at the first error:
//
//  1. Prune: delete siblings of the target that share its name pattern
//     (same prefix and suffix around the version) but not its name.
//  2. Check: if the target is already there, return.
//  3. Fetch: request the release asset, following redirects.
//  4. Write: stream the body through a decompressor into "<target>.download".
//  5. Commit: rename the temp file onto the target.
//
// The rename is the only step that makes a file appear at the target path,
// so a partial download is never mistaken for an installed gadget. A temp
// file left by a failed run is overwritten by the next one.
//
// # Usage
//
//	inst, err := binary.NewInstaller(binary.Config{
//	    Settings:     cfg,
//	    PlatformInfo: info,
//	    Fetcher:      fetch.New(),
//	})
//	if err != nil {
//	    return err
//	}
//	err = inst.EnsureInstalled(ctx, binary.Target{Path: path, Version: "16.1.4"})
package binary
