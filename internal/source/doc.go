// Package source holds the network collaborators that feed the research
// pipeline: web search, page fetching, bestseller listing scrapes, trend
// article discovery and supplier lookups.
package source
