// Package document turns page images into PDF documents.
//
// Writer places one raster image per PDF page, sizing each page from the
// image's pixel size and a DPI. Combine discovers previously written page
// images in a folder and merges them into a single document in file name
// order.
package document
