// Package objstore serves objects from a key/value blob store over an
// hfs router.
//
// Two stores are provided: DiskStore keeps objects under a local
// directory and S3Store keeps them in an S3 (or S3-compatible) bucket.
// Mount wires a store to GET, PUT and DELETE routes whose trailing
// wildcard is the object key:
//
//	store, _ := objstore.NewDiskStore("./data", 10<<20)
//	objstore.Mount(r, "/files", store, objstore.DefaultOptions())
//
//	// GET    /files/a/b.txt  -> contents of key "a/b.txt"
//	// PUT    /files/a/b.txt  -> stores the request body
//	// DELETE /files/a/b.txt  -> removes it
package objstore
