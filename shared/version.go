package shared

const (
	BstethVersion string = "0.1.0"
)
