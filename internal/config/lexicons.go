package config

// Default lexicons for service classification and site filtering. These are
// tunables: operators override them per vertical through the config file.

// defaultExcludedDomains are hosts that can never be an entity's official
// site: directories, social platforms, review platforms, map services.
var defaultExcludedDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"linkedin.com",
	"youtube.com",
	"yelp.com",
	"healthgrades.com",
	"vitals.com",
	"zocdoc.com",
	"webmd.com",
	"yellowpages.com",
	"mapquest.com",
	"google.com",
	"maps.google.com",
	"wikipedia.org",
}

// defaultSocialPlatforms are the platform domains probed by the social
// aggregator, one templated query each.
var defaultSocialPlatforms = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"linkedin.com",
	"youtube.com",
}

// defaultReviewPlatforms are the review sites probed per entity.
var defaultReviewPlatforms = []string{
	"yelp.com",
	"healthgrades.com",
	"vitals.com",
	"zocdoc.com",
}

// defaultLinkKeywords mark same-domain links likely to lead to service pages.
var defaultLinkKeywords = []string{
	"service", "treat", "care", "specialty", "procedure", "therapy",
}

// defaultIncludeTerms is the medical-service vocabulary. A candidate phrase
// containing any of these terms is classified as a service offering.
var defaultIncludeTerms = []string{
	"care", "treatment", "therapy", "procedure", "service", "specialty",
	"surgery", "consultation", "exam", "screening", "test", "imaging",
	"ophthalmology", "optometry", "vision", "eye", "retina", "glaucoma",
	"cataract", "lasik", "contact lens", "glasses", "frames", "macular",
	"dry eye", "pediatric", "refraction", "visual field",
}

// defaultExcludePhrases veto a candidate outright: insurance panels, FAQ-style
// phrasing, administrative boilerplate, and social/review chrome.
var defaultExcludePhrases = []string{
	// insurers
	"insurance", "blue cross", "blue shield", "anthem", "humana", "cigna",
	"aetna", "medicare", "medicaid", "coverage",
	// billing/admin
	"billing", "payment", "cost", "price", "privacy policy",
	"terms of service", "contact us", "about us", "hours", "location",
	"directions", "appointment request", "patient portal", "careers",
	// FAQ-style interrogatives
	"why am i", "what is", "how to", "when should", "can i",
	"frequently asked", "faq",
	// social/review chrome
	"testimonial", "review", "rating", "star", "facebook", "instagram",
	"twitter", "linkedin", "youtube", "yelp", "healthgrades", "follow us",
}
