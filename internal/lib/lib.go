// Package lib holds clients for collaborators that do not fit strictly into
// the other layers.
//
// It currently contains the discovery client used to enrich not-found
// responses with the service's own name and version.
package lib
