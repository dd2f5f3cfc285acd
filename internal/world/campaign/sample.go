package campaign

import "fmt"

const (
	sampleSize  = 10
	sampleImage = "img/map"
)

// SampleImageRef returns the image reference the sample map uses for (x, y).
func SampleImageRef(x, y int) string {
	return fmt.Sprintf("img/row-%d-col-%d.png", y+1, x+1)
}

// Sample returns the 10x10 demo map with every tile visible.
func Sample() *Map {
	m, err := Generate(sampleSize, sampleSize, sampleImage, SampleImageRef, true)
	if err != nil {
		panic(err)
	}
	return m
}
