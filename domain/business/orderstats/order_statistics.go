package orderstats

// Quicksort sorts the given values in place using a Lomuto partition scheme
// with the last element of each subrange as pivot. The quartile bounds the
// outlier estimator derives from the sorted sample must be reproducible
// across runs, so the sort is spelled out here instead of delegated to the
// standard library.
// Worst case O(n^2) on adversarial input, O(n log n) on average
func Quicksort(values []int) {
	quicksort(values, 0, len(values)-1)
}

func quicksort(values []int, low int, high int) {
	if low < high {
		pivotIdx := partition(values, low, high)
		quicksort(values, low, pivotIdx-1)
		quicksort(values, pivotIdx+1, high)
	}
}

// partition moves every element lower or equal than the pivot before it and
// returns the final position of the pivot
func partition(values []int, low int, high int) int {
	pivot := values[high]
	i := low - 1

	for j := low; j < high; j++ {
		if values[j] <= pivot {
			i += 1
			values[i], values[j] = values[j], values[i]
		}
	}

	values[i+1], values[high] = values[high], values[i+1]
	return i + 1
}

// LowerQuartile returns the element at the len/4 position of an already
// sorted sample. If the index falls outside the sample, the first element is
// returned instead
func LowerQuartile(sortedValues []int) int {
	idx := len(sortedValues) / 4
	if idx >= len(sortedValues) {
		return sortedValues[0]
	}
	return sortedValues[idx]
}

// UpperQuartile returns the element at the 3*len/4 position of an already
// sorted sample. If the index falls outside the sample, the last element is
// returned instead
func UpperQuartile(sortedValues []int) int {
	idx := 3 * len(sortedValues) / 4
	if idx >= len(sortedValues) {
		return sortedValues[len(sortedValues)-1]
	}
	return sortedValues[idx]
}
