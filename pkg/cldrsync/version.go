// Package cldrsync exposes release metadata for the cldrsync tool.
package cldrsync

// Version is the cldrsync release version.
const Version = "0.1.0"
