// Package gifski drives the gifski GIF encoder over a rendered frame set.
package gifski
