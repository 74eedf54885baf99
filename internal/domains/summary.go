package domains

// Summary describes the partition produced by Label.
type Summary struct {
	Count    int     `json:"count"`
	Sizes    []int   `json:"sizes"`
	Largest  int     `json:"largest"`
	MeanSize float64 `json:"mean_size"`
}

// Count returns the number of domains in labels.
func Count(labels []int) int {
	max := Unassigned
	for _, id := range labels {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Summarize counts the sites in each domain. Sizes is indexed by domain ID.
func Summarize(labels []int) Summary {
	n := Count(labels)
	s := Summary{Count: n, Sizes: make([]int, n)}
	for _, id := range labels {
		if id >= 0 {
			s.Sizes[id]++
		}
	}
	for _, size := range s.Sizes {
		if size > s.Largest {
			s.Largest = size
		}
	}
	if n > 0 {
		s.MeanSize = float64(len(labels)) / float64(n)
	}
	return s
}
