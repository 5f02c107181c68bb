/*
Package testutil provides fixtures shared by the collection server and admin
console tests.

It covers the three kinds of data those tests keep rebuilding: sealed survey
submissions (a key pair plus records encrypted for the operator), a running
collection server backed by an in-memory store, and an in-process HTTP server
serving a small geo boundary dataset.

	pub, priv := testutil.Keys(t)
	srv := testutil.NewCollectionServer(t, "admin-key")
	testutil.Submit(t, srv, pub, testutil.SampleRecords()...)
*/
package testutil
