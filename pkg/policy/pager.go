package policy

import "sort"

// DefaultPageSize is used when query parameters do not carry a valid size.
const DefaultPageSize = 20

// Order is the sort direction of a paginated query.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// QueryParameters describe one page of a "changed since" poll. ModifiedAfter
// is an exclusive lower bound in Unix milliseconds; zero returns everything.
type QueryParameters struct {
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	Sort          string `json:"sort"`
	Order         Order  `json:"order"`
	ModifiedAfter int64  `json:"modifiedAfter"`
}

// Normalize clamps the parameters into their valid ranges so that pagination
// math stays stable for sloppy callers.
func (q QueryParameters) Normalize() QueryParameters {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size < 1 {
		q.Size = DefaultPageSize
	}
	if q.Order != OrderDesc {
		q.Order = OrderAsc
	}

	return q
}

// Pageable is the minimal entity surface the pager needs. domain.Meta
// satisfies it for every entity.
type Pageable interface {
	EntityID() int64
	ModifiedAt() int64
}

// Envelope is the paginated response wrapper. LastModified is the maximum
// Modified over the whole filtered set, not just the returned page, so a
// client polling with modifiedAfter = LastModified misses nothing even when
// it only fetched page zero.
type Envelope[T Pageable] struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int   `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Count         int   `json:"count"`
	LastModified  int64 `json:"lastModified"`
	Content       []T   `json:"content"`
}

// Comparator orders two items by the requested sort field. It returns a
// negative value when a sorts before b, zero when equal.
type Comparator[T Pageable] func(a, b T) int

// CompareInt64 builds a comparator from an int64 key accessor.
func CompareInt64[T Pageable](key func(T) int64) Comparator[T] {
	return func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	}
}

// CompareString builds a comparator from a string key accessor.
func CompareString[T Pageable](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	}
}

// Paginate filters items to those modified strictly after params.ModifiedAfter,
// sorts them by cmp in the requested order (ties always broken by ascending
// id, for determinism), and slices out the requested page. The input slice is
// never mutated. Even an empty result still reports the requested page, size
// and at least one total page so client pagination math stays stable.
func Paginate[T Pageable](items []T, params QueryParameters, cmp Comparator[T]) Envelope[T] {
	params = params.Normalize()

	filtered := make([]T, 0, len(items))
	var lastModified int64
	for _, it := range items {
		if it.ModifiedAt() <= params.ModifiedAfter {
			continue
		}
		filtered = append(filtered, it)
		if it.ModifiedAt() > lastModified {
			lastModified = it.ModifiedAt()
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		c := cmp(filtered[i], filtered[j])
		if params.Order == OrderDesc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}

		return filtered[i].EntityID() < filtered[j].EntityID()
	})

	total := len(filtered)
	totalPages := (total + params.Size - 1) / params.Size
	if totalPages < 1 {
		totalPages = 1
	}

	start := params.Page * params.Size
	if start > total {
		start = total
	}
	end := start + params.Size
	if end > total {
		end = total
	}
	content := filtered[start:end]

	return Envelope[T]{
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Count:         len(content),
		LastModified:  lastModified,
		Content:       content,
	}
}
