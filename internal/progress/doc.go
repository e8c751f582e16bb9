// Package progress prints human-readable download progress.
//
// Output goes to stderr by default, one line per file:
//
//	[goesdl] Downloading 12 files of RadC
//	[goesdl] (1/12) OR_ABI-L1b-RadC-M6C02_G16_s2021365200...nc
//	[goesdl] (1/12) 24.31 MB in 3s
//	[goesdl] Done: 12 files | 291.72 MB | 41s | 7.11 MB/s
package progress
