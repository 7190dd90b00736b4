package domain

// AdCopy is short marketing text generated alongside the image variations.
type AdCopy struct {
	Headline string `json:"headline"`
	Caption  string `json:"caption"`
	Tags     []string `json:"tags,omitempty"`
}
