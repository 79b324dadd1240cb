// Package template renders prompt component templates against the
// descriptor's variables section, using Go text/template with the sprig
// function library.
package template
