package engine

import "context"

// QADiagnostics retrieves the recent QA validation reports.
func (c *Client) QADiagnostics(ctx context.Context) (*QADiagnostics, error) {
	var diag QADiagnostics
	if err := c.get(ctx, "/api/qa/diagnostics", &diag); err != nil {
		return nil, err
	}
	return &diag, nil
}

// QAReport retrieves one QA report by id.
func (c *Client) QAReport(ctx context.Context, id string) (*QAReport, error) {
	var report QAReport
	if err := c.get(ctx, "/api/qa/diagnostics/"+id, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// StyleDiagnostics retrieves the recent style-linter results.
func (c *Client) StyleDiagnostics(ctx context.Context) (*StyleDiagnostics, error) {
	var diag StyleDiagnostics
	if err := c.get(ctx, "/api/style/diagnostics", &diag); err != nil {
		return nil, err
	}
	return &diag, nil
}

// StyleResult retrieves one style diagnostic by id.
func (c *Client) StyleResult(ctx context.Context, id string) (*StyleResult, error) {
	var result StyleResult
	if err := c.get(ctx, "/api/style/diagnostics/"+id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StyleRerun asks the engine to re-lint the given article.
func (c *Client) StyleRerun(ctx context.Context, articleID string) (*ProcessResponse, error) {
	body := map[string]string{"article_id": articleID}
	var resp ProcessResponse
	if err := c.postJSON(ctx, "/api/style/rerun", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VersioningDiagnostics retrieves the recent versioning-engine records.
func (c *Client) VersioningDiagnostics(ctx context.Context) (*VersioningDiagnostics, error) {
	var diag VersioningDiagnostics
	if err := c.get(ctx, "/api/versioning/diagnostics", &diag); err != nil {
		return nil, err
	}
	return &diag, nil
}

// VersionRecord retrieves one versioning record by id.
func (c *Client) VersionRecord(ctx context.Context, id string) (*VersionRecord, error) {
	var record VersionRecord
	if err := c.get(ctx, "/api/versioning/diagnostics/"+id, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// VersioningRerun asks the engine to recompute versioning for an article.
func (c *Client) VersioningRerun(ctx context.Context, articleID string) (*ProcessResponse, error) {
	body := map[string]string{"article_id": articleID}
	var resp ProcessResponse
	if err := c.postJSON(ctx, "/api/versioning/rerun", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
