package domain

import (
	"reflect"
	"sort"
	"testing"
)

func sortNumbers(numbers []string) {
	sort.SliceStable(numbers, func(i, j int) bool {
		return CompareLineNumbers(numbers[i], numbers[j]) < 0
	})
}

func TestCompareLineNumbersNumericOrder(t *testing.T) {
	numbers := []string{"2", "10", "1"}
	sortNumbers(numbers)

	want := []string{"1", "2", "10"}
	if !reflect.DeepEqual(numbers, want) {
		t.Fatalf("sorted = %v, want %v", numbers, want)
	}
}

func TestCompareLineNumbersNonNumericLast(t *testing.T) {
	numbers := []string{"3-bis", "2", "10", "1-bis"}
	sortNumbers(numbers)

	want := []string{"2", "10", "1-bis", "3-bis"}
	if !reflect.DeepEqual(numbers, want) {
		t.Fatalf("sorted = %v, want %v", numbers, want)
	}
}

func TestCompareLineNumbersEqual(t *testing.T) {
	if CompareLineNumbers("07", "7") != 0 {
		t.Fatalf("numeric compare should ignore leading zeros")
	}
}
