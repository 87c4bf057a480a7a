package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectImagesNormalizes(t *testing.T) {
	in := []string{
		"http://a/1.jpg?x=1",
		"http://a/1.jpg",          // duplicate after query strip
		"  http://a/2.jpg#crop  ", // fragment stripped, padding trimmed
		"/relative/3.jpg",         // discarded
		"not a url",
		"https://b/4.jpg?session=abc&w=800",
	}

	assert.Equal(t, []string{
		"http://a/1.jpg",
		"http://a/2.jpg",
		"https://b/4.jpg",
	}, CollectImages(in, 10))
}

func TestCollectImagesCapsAtTen(t *testing.T) {
	var in []string
	for i := 0; i < 15; i++ {
		in = append(in, fmt.Sprintf("http://cdn/img-%d.jpg?v=%d", i%12, i))
	}
	out := CollectImages(in, 10)
	assert.Len(t, out, 10)
	assert.Equal(t, "http://cdn/img-0.jpg", out[0])
}

func TestDedupStrings(t *testing.T) {
	in := []string{"Pool", " Pool ", "Garden", "", "Garage", "Garden"}
	assert.Equal(t, []string{"Pool", "Garden", "Garage"}, DedupStrings(in))
}
