// Package model defines the feedback form record (FormData), the per-field
// error set (ErrorMap) and the field descriptors renderers consume. Field
// descriptors mirror the labels, placeholders and input kinds of the form so
// the terminal and HTML surfaces present the same inputs in the same order.
package model
