// Package cmd contains the standalone binaries: the collection server
// (sdc-map) and the operator's admin console (admin), plus helpers they
// share in common.
package cmd
