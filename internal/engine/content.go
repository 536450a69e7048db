package engine

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
)

// Status retrieves the engine health and capability payload.
func (c *Client) Status(ctx context.Context) (*EngineStatus, error) {
	var status EngineStatus
	if err := c.get(ctx, "/api/engine", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ProcessContent submits raw document text for processing and returns the
// created job acknowledgement. The caller polls the job via WaitForJob.
func (c *Client) ProcessContent(ctx context.Context, req *ProcessRequest) (*ProcessResponse, error) {
	var resp ProcessResponse
	if err := c.postJSON(ctx, "/api/content/process", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessTraining submits a document to the training pipeline.
// The training pipeline shares the job tracker with content processing.
func (c *Client) ProcessTraining(ctx context.Context, req *ProcessRequest) (*ProcessResponse, error) {
	var resp ProcessResponse
	if err := c.postJSON(ctx, "/api/training/process", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upload submits a source file as a multipart form to /api/content/upload.
// Metadata entries are sent as additional form fields.
func (c *Client) Upload(ctx context.Context, filename string, content []byte, metadata map[string]string) (*ProcessResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write multipart file: %w", err)
	}

	for k, v := range metadata {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write multipart field %q: %w", k, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	var resp ProcessResponse
	if err := c.do(ctx, "POST", "/api/content/upload", mw.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Library retrieves the content-library article listing.
// A limit of 0 requests the engine's default page size.
func (c *Client) Library(ctx context.Context, limit int) (*ContentLibrary, error) {
	path := "/api/content-library"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var lib ContentLibrary
	if err := c.get(ctx, path, &lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// ArticlesByRunID filters the content library down to articles whose
// metadata carries the given kescan correlation id.
func (c *Client) ArticlesByRunID(ctx context.Context, runID string) ([]Article, error) {
	lib, err := c.Library(ctx, 0)
	if err != nil {
		return nil, err
	}

	var out []Article
	for _, a := range lib.Articles {
		if a.Metadata[MetadataRunKey] == runID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Assets retrieves the stored asset listing, optionally filtered by filename.
func (c *Client) Assets(ctx context.Context, filename string) (*AssetList, error) {
	path := "/api/assets"
	if filename != "" {
		path += "?filename=" + url.QueryEscape(filename)
	}

	var assets AssetList
	if err := c.get(ctx, path, &assets); err != nil {
		return nil, err
	}
	return &assets, nil
}

// MetadataRunKey is the metadata field kescan sets on submissions so
// engine-side artifacts can be traced back to a verification run.
const MetadataRunKey = "kescan_run_id"
