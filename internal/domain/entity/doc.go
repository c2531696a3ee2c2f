// Package entity defines the domain records that flow through the summarization
// pipeline: the requested content type, the resolved source branch, the extracted
// Document and the metadata of a video. It also owns URL format validation and
// the routing rule that decides which loader handles a URL.
package entity
