// Package render turns an uploaded PDF into one image per page, in page
// order, for the visual analysis stage.
package render
