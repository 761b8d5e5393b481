package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

// pageOf accepts both a paginated envelope and a bare JSON array.
type pageOf[T any] struct {
	domain.Page[T]
}

func (p *pageOf[T]) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		p.Page = domain.Page[T]{Count: len(list), Results: list}
		return nil
	}

	var page domain.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	if page.Results == nil {
		return fmt.Errorf("response is neither a list nor a page")
	}
	p.Page = page
	return nil
}
