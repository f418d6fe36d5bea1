// Package billprint holds the pieces shared by the invoice print encoders:
// the QR symbol encoder under qrcode/ and the single-page PDF assembler
// under pdf/.
package billprint
