// internal/database/database_test.go

package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'zakat' for key 'Article.slug'"}

	if !IsDuplicateEntry(dup) {
		t.Error("ER_DUP_ENTRY not recognised")
	}
	if !IsDuplicateEntry(fmt.Errorf("insert article: %w", dup)) {
		t.Error("wrapped ER_DUP_ENTRY not recognised")
	}
	if IsDuplicateEntry(&mysql.MySQLError{Number: 1146, Message: "Table 'x' doesn't exist"}) {
		t.Error("unrelated driver error treated as duplicate")
	}
	if IsDuplicateEntry(errors.New("plain error")) {
		t.Error("plain error treated as duplicate")
	}
	if IsDuplicateEntry(nil) {
		t.Error("nil treated as duplicate")
	}
}
