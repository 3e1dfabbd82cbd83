// Package ocr reads card numbers back from rendered sheets using Tesseract.
//
// It wraps the Tesseract engine through gosseract/v2 and is tuned for the
// one job proofing needs: a single line of digits in a small crop.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// # Thread Safety
//
// A Reader owns one Tesseract client and must not be shared between
// goroutines. Create one Reader per worker.
package ocr
