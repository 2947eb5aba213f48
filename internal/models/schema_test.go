package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// The enrolled-courses and enrolled-students views are derived relations over
// the enrollments table. Both sides must resolve to that table, otherwise the
// migration would create a second join table next to it.
func TestEnrollmentRelationsResolveThroughEnrollmentsTable(t *testing.T) {
	cache := &sync.Map{}
	namer := schema.NamingStrategy{}

	userSchema, err := schema.Parse(&User{}, cache, namer)
	if err != nil {
		t.Fatalf("parse user schema: %v", err)
	}
	courseSchema, err := schema.Parse(&Course{}, cache, namer)
	if err != nil {
		t.Fatalf("parse course schema: %v", err)
	}

	cases := []struct {
		schema   *schema.Schema
		relation string
	}{
		{userSchema, "EnrolledCourses"},
		{courseSchema, "EnrolledStudents"},
	}
	for _, c := range cases {
		rel, ok := c.schema.Relationships.Relations[c.relation]
		if !ok {
			t.Fatalf("%s: relation %s not found", c.schema.Name, c.relation)
		}
		if rel.JoinTable == nil {
			t.Fatalf("%s.%s: no join table", c.schema.Name, c.relation)
		}
		if rel.JoinTable.Table != (Enrollment{}).TableName() {
			t.Errorf("%s.%s joins through %q, want %q",
				c.schema.Name, c.relation, rel.JoinTable.Table, (Enrollment{}).TableName())
		}
	}
}
