// Package scout defines the core types and collaborator interfaces shared by
// the practice research pipeline: entity identities, resolved sites, crawled
// pages, extracted service lists, auxiliary findings, and the assembled
// per-entity result record.
package scout
