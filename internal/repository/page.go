package repository

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// HasNext reports whether rows remain after this page.
func (p *PageResult[T]) HasNext(pq PageQuery) bool {
	return pq.Offset+len(p.Items) < p.Total
}
