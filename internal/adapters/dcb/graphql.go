package dcb

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	perr "dcbadmin/internal/platform/errors"
)

type gqlRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GQLError      `json:"errors"`
}

// GQLError is one entry of a GraphQL errors array
type GQLError struct {
	Message    string `json:"message"`
	Path       []any  `json:"path,omitempty"`
	Extensions struct {
		Classification string `json:"classification"`
	} `json:"extensions"`
}

// GraphQL posts a document with variables and decodes data into out
// a response carrying errors is a failure even when the status is 200
func (c *Client) GraphQL(ctx context.Context, tokens TokenSource, document string, variables, out any) error {
	resp, err := c.Do(ctx, tokens, http.MethodPost, c.opts.GraphQLPath, gqlRequest{Query: document, Variables: variables})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("dcb close graphql body failed")
		}
	}()

	var r gqlResponse
	if err := decode(resp.Body, &r); err != nil {
		return err
	}
	if len(r.Errors) > 0 {
		c.log.Warn().Int("errors", len(r.Errors)).Str("first", r.Errors[0].Message).Msg("dcb graphql errors")
		return graphQLError(r.Errors)
	}
	if out == nil {
		return nil
	}
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return perr.Upstreamf("dcb graphql response has no data")
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "dcb graphql data does not match the expected shape")
	}
	return nil
}

// graphQLError maps the first error by its classification
func graphQLError(errs []GQLError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	msg := strings.Join(msgs, "; ")
	switch strings.ToUpper(errs[0].Extensions.Classification) {
	case "NOT_FOUND", "NOTFOUND":
		return perr.NotFoundf("%s", msg)
	case "VALIDATIONERROR", "BAD_REQUEST":
		return perr.Newf(perr.ErrorCodeValidation, "%s", msg)
	case "UNAUTHORIZED", "UNAUTHENTICATED":
		return perr.Unauthorizedf("%s", msg)
	case "FORBIDDEN":
		return perr.Forbiddenf("%s", msg)
	default:
		return perr.Upstreamf("dcb graphql: %s", msg)
	}
}
