package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformHTMLTextPreservesTags(t *testing.T) {
	in := `<div class="desc"><p>Sea view</p><br/><p>Private pool</p></div>`

	upper := TransformHTMLText(in, strings.ToUpper)
	assert.Equal(t, `<div class="desc"><p>SEA VIEW</p><br/><p>PRIVATE POOL</p></div>`, upper)
}

func TestTransformHTMLTextNoop(t *testing.T) {
	in := `<p>Unchanged &amp; untouched</p> trailing text`
	assert.Equal(t, in, PassthroughTranslation(in))
}

func TestTransformHTMLTextLeadingAndTrailingText(t *testing.T) {
	out := TransformHTMLText("before <b>mid</b> after", strings.ToUpper)
	assert.Equal(t, "BEFORE <b>MID</b> AFTER", out)
}
