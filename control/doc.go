// control/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package control exposes the connection server's runtime metrics and
// debug probes.
package control
