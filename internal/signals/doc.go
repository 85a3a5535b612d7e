// Package signals gathers auxiliary intelligence about an entity outside its
// own website: social-media presence, review-platform listings, nearby
// competitors, and location demographics. The aggregators are independent of
// each other and of the crawler; they share only the entity identity and the
// resolved site.
package signals
