package main

// Response shape normalizer. The scraping backend answers in whatever shape
// the workflow that produced it happened to use: a bare array of grouped
// items, a {status,data} wrapper, nested {items:[{products:[...]}]} blocks,
// an n8n {json:{...}} envelope, or the legacy flat list. This layer walks
// any of them and emits a flat sequence of raw records plus the context
// (query, meta block) inherited from enclosing nodes. Unrecognized shapes
// yield zero records instead of an error: partial results beat failures.

// SearchContext carries metadata plumbed through nested payload parsing.
type SearchContext struct {
	Query string
	Meta  map[string]any
}

// RawRecord is one pre-grouped product node as found in the payload,
// together with the context it was found under. Every record carries a
// "supermarkets" array of per-store entries.
type RawRecord struct {
	Fields  map[string]any
	Context SearchContext
}

// NormalizePayload extracts raw records from a decoded backend payload.
// A nil payload is a programmer error and panics; anything else degrades
// to an empty slice at worst.
func NormalizePayload(payload any) []RawRecord {
	if payload == nil {
		panic("normalize: nil payload")
	}
	var out []RawRecord
	walkPayload(payload, SearchContext{}, &out)
	return out
}

func walkPayload(node any, ctx SearchContext, out *[]RawRecord) {
	switch v := node.(type) {
	case []any:
		// An array whose first element already carries a supermarkets
		// array is a pre-grouped result list; take each element as a
		// terminal record without recursing further.
		if first, ok := firstObject(v); ok && isArray(first["supermarkets"]) {
			for _, elem := range v {
				if m, ok := elem.(map[string]any); ok && isArray(m["supermarkets"]) {
					*out = append(*out, RawRecord{Fields: m, Context: ctx})
				}
			}
			return
		}
		for _, elem := range v {
			walkPayload(elem, ctx, out)
		}

	case map[string]any:
		// n8n wraps each item as {json: {...}}; unwrap before dispatch.
		if inner, ok := v["json"].(map[string]any); ok {
			walkPayload(inner, ctx, out)
			return
		}

		if items, ok := asArray(v["items"]); ok {
			for _, raw := range items {
				item, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				if products, ok := asArray(item["products"]); ok {
					child := contextFrom(item, ctx)
					for _, p := range products {
						walkPayload(p, child, out)
					}
				} else {
					walkPayload(item, ctx, out)
				}
			}
			return
		}

		for _, key := range []string{"data", "results", "popular_products"} {
			if arr, ok := asArray(v[key]); ok {
				walkPayload(arr, ctx, out)
				return
			}
		}

		if products, ok := asArray(v["products"]); ok && !isArray(v["supermarkets"]) {
			walkPayload(products, contextFrom(v, ctx), out)
			return
		}

		if isArray(v["supermarkets"]) {
			*out = append(*out, RawRecord{Fields: v, Context: ctx})
			return
		}

		// Dead end: nothing recognizable under this node.
	}
}

// contextFrom updates ctx with the node's own meta/query when present.
func contextFrom(node map[string]any, ctx SearchContext) SearchContext {
	if meta, ok := node["meta"].(map[string]any); ok {
		ctx.Meta = meta
	}
	if q, ok := node["query"].(string); ok && q != "" {
		ctx.Query = q
	}
	return ctx
}

func firstObject(arr []any) (map[string]any, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	m, ok := arr[0].(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}
