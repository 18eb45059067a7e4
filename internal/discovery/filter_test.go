package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pytdbg/internal/domain"
)

func TestFilter_Match(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		pattern  string
		value    string
		expected bool
	}{
		{name: "empty pattern", pattern: "", value: "anything", expected: true},
		{name: "substring", pattern: "Payment", value: "tests/test_pay.py::PaymentTest::test_ok", expected: true},
		{name: "substring miss", pattern: "Order", value: "tests/test_pay.py::PaymentTest::test_ok", expected: false},
		{name: "leading wildcard", pattern: "*test_ok", value: "tests.test_pay.PaymentTest.test_ok", expected: true},
		{name: "multiple wildcards in order", pattern: "*Payment*ok", value: "tests/test_pay.py::PaymentTest::test_ok", expected: true},
		{name: "wildcard parts out of order", pattern: "*ok*Payment*", value: "tests/test_pay.py::PaymentTest::test_ok", expected: false},
		{name: "only wildcards", pattern: "**", value: "x", expected: true},
		{name: "question mark", pattern: "test_?k", value: "test_ok", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.Match(tt.pattern, tt.value))
		})
	}
}

func TestFilter_FilterTests(t *testing.T) {
	files := []domain.FileTriggers{
		{
			RelPath: "tests/test_pay.py",
			Tests: []domain.IndexedTest{
				{Trigger: domain.Trigger{FunctionName: "test_ok"}, PytestID: "tests/test_pay.py::PaymentTest::test_ok", UnittestID: "tests.test_pay.PaymentTest.test_ok"},
				{Trigger: domain.Trigger{FunctionName: "test_refund"}, PytestID: "tests/test_pay.py::RefundTest::test_refund", UnittestID: "tests.test_pay.RefundTest.test_refund"},
			},
		},
		{
			RelPath: "tests/test_user.py",
			Tests: []domain.IndexedTest{
				{Trigger: domain.Trigger{FunctionName: "test_login"}, PytestID: "tests/test_user.py::test_login", UnittestID: "tests.test_user.test_login"},
			},
		},
	}

	filter := NewFilter()

	t.Run("empty pattern keeps all", func(t *testing.T) {
		assert.Equal(t, files, filter.FilterTests(files, "", domain.RunnerPytest))
	})

	t.Run("drops files without matches", func(t *testing.T) {
		result := filter.FilterTests(files, "*Refund*", domain.RunnerUnittest)
		assert.Len(t, result, 1)
		assert.Len(t, result[0].Tests, 1)
		assert.Equal(t, "test_refund", result[0].Tests[0].FunctionName)
	})

	t.Run("matches function names", func(t *testing.T) {
		result := filter.FilterTests(files, "test_login", domain.RunnerPytest)
		assert.Len(t, result, 1)
		assert.Equal(t, "tests/test_user.py", result[0].RelPath)
	})
}
