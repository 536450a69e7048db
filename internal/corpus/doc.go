// Package corpus generates deterministic synthetic source documents for
// submission to the Knowledge Engine. Checks derive their expectations
// (article counts, heading structure, embedded lists and code blocks) from
// the generation spec instead of parsing the document after the fact.
package corpus
