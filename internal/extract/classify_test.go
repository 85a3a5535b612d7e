// Package extract_test tests phrase classification and page segmentation.
package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadscope/practicescout/internal/extract"
	"github.com/leadscope/practicescout/internal/scout"
)

func testLexicons() extract.Lexicons {
	return extract.Lexicons{
		IncludeTerms: []string{
			"eye", "exam", "treatment", "glaucoma", "cataract", "lasik",
			"vision", "care", "therapy",
		},
		ExcludePhrases: []string{
			"insurance", "blue cross", "anthem", "cigna", "aetna",
			"contact us", "about us", "what is", "faq", "facebook",
		},
		MinWords:     1,
		MaxWords:     10,
		MaxPhraseLen: 100,
	}
}

func TestClassify(t *testing.T) {
	lx := testLexicons()

	cases := []struct {
		name   string
		phrase string
		want   scout.Classification
	}{
		{"ServicePhrase", "Comprehensive Eye Exams", scout.ClassInclude},
		{"CaseInsensitive", "GLAUCOMA TREATMENT", scout.ClassInclude},
		{"Hyphenated", "Dry-Eye Therapy", scout.ClassInclude},
		{"InsurancePanel", "We accept Blue Cross insurance", scout.ClassExclude},
		{"InsurerAlone", "Anthem", scout.ClassExclude},
		{"AdminChrome", "Contact Us", scout.ClassExclude},
		{"FAQInterrogative", "What is glaucoma?", scout.ClassExclude},
		{"SocialChrome", "Find us on Facebook", scout.ClassExclude},
		{"NoVocabularyHit", "Our friendly staff", scout.ClassUnknown},
		{"Empty", "", scout.ClassUnknown},
		{"Whitespace", "   \t\n  ", scout.ClassUnknown},
		{"TooShort", "ey", scout.ClassUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lx.Classify(tc.phrase))
		})
	}
}

func TestClassifyExclusionBeatsInclusion(t *testing.T) {
	lx := testLexicons()
	// Mentions a treatment but sits inside insurance copy.
	got := lx.Classify("Glaucoma treatment covered by Cigna insurance")
	assert.Equal(t, scout.ClassExclude, got)
}

func TestClassifyShapeBounds(t *testing.T) {
	lx := testLexicons()
	lx.MaxWords = 4

	t.Run("TooManyWords", func(t *testing.T) {
		got := lx.Classify("our clinic offers the finest eye care in the whole region")
		assert.Equal(t, scout.ClassUnknown, got)
	})
	t.Run("TooLong", func(t *testing.T) {
		lx.MaxPhraseLen = 10
		got := lx.Classify("Cataract Surgery Consults")
		assert.Equal(t, scout.ClassUnknown, got)
	})
}

func TestClassifyDeterministic(t *testing.T) {
	lx := testLexicons()
	first := lx.Classify("Pediatric Eye Care")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, lx.Classify("Pediatric Eye Care"))
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"Lowercases", "Eye Exams", "eye exams"},
		{"StripsPunctuation", "LASIK, Co-Management!", "lasik co management"},
		{"CollapsesWhitespace", "  dry \t eye\n therapy ", "dry eye therapy"},
		{"SlashSplits", "Glasses/Contacts", "glasses contacts"},
		{"Empty", "?!.", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extract.Normalize(tc.in))
		})
	}
}

func TestSegment(t *testing.T) {
	body := []byte(`<html><body>
		<nav><a href="/services">Our Services</a></nav>
		<h1>Lakeside Eye Care</h1>
		<h2>Comprehensive Eye Exams</h2>
		<ul>
			<li>Glaucoma Treatment
				<ul><li>Laser Trabeculoplasty</li></ul>
			</li>
			<li>Cataract Surgery</li>
		</ul>
		<div class="card"><h3>LASIK Evaluation</h3><p>Long marketing copy goes here.</p></div>
		<p>Dry Eye Therapy</p>
		<p>This is a long paragraph of marketing prose that should never be picked up as a candidate phrase by the segmenter at all.</p>
	</body></html>`)

	got := extract.Segment(body)

	assert.Contains(t, got, "Our Services")
	assert.Contains(t, got, "Lakeside Eye Care")
	assert.Contains(t, got, "Comprehensive Eye Exams")
	assert.Contains(t, got, "Glaucoma Treatment")
	assert.Contains(t, got, "Cataract Surgery")
	assert.Contains(t, got, "Laser Trabeculoplasty")
	assert.Contains(t, got, "LASIK Evaluation")
	assert.Contains(t, got, "Dry Eye Therapy")
	for _, c := range got {
		assert.NotContains(t, c, "marketing prose")
	}
}
