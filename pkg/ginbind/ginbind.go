// Package ginbind connects pipes to gin handlers. It extracts the raw
// argument value a descriptor points at, runs it through a pipe chain and
// maps classified failures to a client-facing 400 response.
package ginbind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honestjs/pipes/pkg/pipes"
)

// Argument kinds the adapter knows how to extract.
const (
	KindParam  = "param"
	KindQuery  = "query"
	KindHeader = "header"
	KindBody   = "body"
)

// Value extracts the raw argument named by meta from the request. Absent
// params, queries and headers yield nil so downstream pipes short-circuit;
// an empty body also yields nil.
func Value(c *gin.Context, meta pipes.ArgumentMetadata) (any, error) {
	switch meta.Kind {
	case KindParam:
		for _, p := range c.Params {
			if p.Key == meta.Name {
				return p.Value, nil
			}
		}
		return nil, nil
	case KindQuery:
		if v, ok := c.GetQuery(meta.Name); ok {
			return v, nil
		}
		return nil, nil
	case KindHeader:
		if vs := c.Request.Header.Values(meta.Name); len(vs) > 0 {
			return vs[0], nil
		}
		return nil, nil
	case KindBody:
		var body any
		if err := c.ShouldBindJSON(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, pipes.NewInvalidInputError(err)
		}
		return body, nil
	default:
		return nil, fmt.Errorf("unknown argument kind %q", meta.Kind)
	}
}

// Run extracts the argument named by meta and feeds it through the given
// pipes in order.
func Run(ctx context.Context, c *gin.Context, meta pipes.ArgumentMetadata, ps ...pipes.Pipe) (any, error) {
	raw, err := Value(c, meta)
	if err != nil {
		return nil, err
	}
	return pipes.Chain(ctx, raw, meta, ps...)
}

// Abort writes the client-facing response for a pipe failure and stops the
// handler chain. Classified failures surface their message verbatim with
// status 400; anything else becomes an opaque 500.
func Abort(c *gin.Context, err error) {
	if pipes.KindOf(err) != 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"statusCode": http.StatusBadRequest,
			"error":      "Bad Request",
			"message":    err.Error(),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"statusCode": http.StatusInternalServerError,
		"error":      "Internal Server Error",
	})
}
