package recipient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		in                    string
		title, given, surname string
	}{
		{"John Smith", "", "John", "Smith"},
		{"Smith, John", "", "John", "Smith"},
		{"Dr. Smith, John", "Dr.", "John", "Smith"},
		{"Mrs. Jane Mary Doe", "Mrs.", "Jane Mary", "Doe"},
		{"Maria de la Cruz", "", "Maria", "de la Cruz"},
		{"Prince", "", "Prince", ""},
		{"Sig.", "Sig.", "", ""},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			title, given, surname := splitName(tt.in)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.given, given)
			assert.Equal(t, tt.surname, surname)
		})
	}
}

func TestSplitOrgSuffix(t *testing.T) {
	tests := []struct {
		in, name, org string
	}{
		{"Mario Rossi - ACME", "Mario Rossi", "ACME"},
		{"Mario Rossi (ACME Srl)", "Mario Rossi", "ACME Srl"},
		{"Mario Rossi, ACME S.p.A.", "Mario Rossi", "ACME S.p.A."},
		{"ACME Inc. / Jane Doe", "Jane Doe", "ACME Inc."},
		{"Rossi, Mario", "Rossi, Mario", ""},
		{"Mario Rossi", "Mario Rossi", ""},
		{"Mario Rossi GmbH", "Mario Rossi", "Mario Rossi GmbH"},
		{"ACME S.r.l.", "ACME", "ACME S.r.l."},
		{"Acme Co. Ltd", "Acme", "Acme Co. Ltd"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, org := splitOrgSuffix(tt.in)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.org, org)
		})
	}
}

func TestIsOrganization(t *testing.T) {
	assert.True(t, isOrganization("Smith & Sons", ""))
	assert.True(t, isOrganization("Studio 54", ""))
	assert.True(t, isOrganization("Example GmbH", ""))
	assert.True(t, isOrganization("Ufficio Vendite", ""))
	assert.True(t, isOrganization("IBM", "Italy"))
	assert.True(t, isOrganization("", ""))
	assert.False(t, isOrganization("IBM", ""))
	assert.False(t, isOrganization("John Smith", "ACME"))
	assert.False(t, isOrganization("Mario Rossi", "Mario Rossi GmbH"))
	assert.True(t, isOrganization("Example", "Example GmbH"))
	assert.True(t, isOrganization("ACME Deutschland", "ACME Deutschland GmbH"))
}

func TestLocalPartNames(t *testing.T) {
	tests := []struct {
		local, given, surname string
	}{
		{"john.smith", "John", "Smith"},
		{"john_smith", "John", "Smith"},
		{"john-smith", "John", "Smith"},
		{"john.smith83", "John", "Smith"},
		{"john.smith+news", "John", "Smith"},
		{"j.smith", "J.", "Smith"},
		{"JohnSmith", "John", "Smith"},
		{"jSmith", "J.", "Smith"},
		{"JSmith", "J.", "Smith"},
		{"john.a.smith", "John", "Smith"},
		{"jsmith", "", ""},
		{"info2", "", ""},
		{"john.s", "", ""},
		{"a.b.c.d", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			given, surname := localPartNames(tt.local)
			assert.Equal(t, tt.given, given)
			assert.Equal(t, tt.surname, surname)
		})
	}
}
