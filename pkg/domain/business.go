package domain

// Business is one input row: a business name and its website as found in the
// input file. Website may be empty or malformed.
type Business struct {
	Name    string
	Website string
}
