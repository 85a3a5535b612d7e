package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/extract"
	"github.com/leadscope/practicescout/internal/scout"
)

func TestServicesFromRealisticPage(t *testing.T) {
	body := []byte(`<html><body>
		<h1>Welcome to Lakeside</h1>
		<h2>Eye Exams</h2>
		<h2>Glaucoma Treatment</h2>
		<h2>We accept Blue Cross and Aetna insurance</h2>
		<h3>Contact Us</h3>
		<p>Follow us on Facebook</p>
	</body></html>`)

	e := extract.New(testLexicons(), zap.NewNop())
	services := e.Services([]scout.PageContent{{URL: "https://lakeside.example/", Body: body}})

	assert.Equal(t, []string{"Eye Exams", "Glaucoma Treatment"}, services)
}

func TestServicesDedupAcrossPages(t *testing.T) {
	root := []byte(`<html><body><h2>Eye Exams</h2><h2>LASIK Evaluation</h2></body></html>`)
	deep := []byte(`<html><body><h2>EYE   EXAMS</h2><h2>Cataract Surgery</h2></body></html>`)

	e := extract.New(testLexicons(), zap.NewNop())
	services := e.Services([]scout.PageContent{
		{URL: "https://x.example/", Depth: 0, Body: root},
		{URL: "https://x.example/services", Depth: 1, Body: deep},
	})

	// The root page's surface form wins the dedup race.
	assert.Equal(t, []string{"Eye Exams", "LASIK Evaluation", "Cataract Surgery"}, services)
}

func TestServicesEmptyPagesYieldEmptyList(t *testing.T) {
	e := extract.New(testLexicons(), zap.NewNop())

	services := e.Services(nil)
	require.NotNil(t, services)
	assert.Empty(t, services)

	services = e.Services([]scout.PageContent{{Body: []byte("<html><body><p>plain prose only</p></body></html>")}})
	require.NotNil(t, services)
	assert.Empty(t, services)
}

func TestCandidatesReportClassPerPhrase(t *testing.T) {
	body := []byte(`<html><body><h2>Eye Exams</h2><h2>Contact Us</h2><h2>Our Team</h2></body></html>`)
	e := extract.New(testLexicons(), zap.NewNop())

	candidates := e.Candidates([]scout.PageContent{{URL: "https://x.example/", Body: body}})
	require.Len(t, candidates, 3)

	byPhrase := map[string]scout.Classification{}
	for _, c := range candidates {
		byPhrase[c.Phrase] = c.Class
		assert.Equal(t, "https://x.example/", c.SourceURL)
	}
	assert.Equal(t, scout.ClassInclude, byPhrase["Eye Exams"])
	assert.Equal(t, scout.ClassExclude, byPhrase["Contact Us"])
	assert.Equal(t, scout.ClassUnknown, byPhrase["Our Team"])
}
