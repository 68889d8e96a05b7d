package repositories

import (
	"reflect"
	"strings"
	"testing"

	"github.com/yigit/campushub/internal/app/models"
)

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"dbms":     "%dbms%",
		"100%":     `%100\%%`,
		"cs_301":   `%cs\_301%`,
		`C:\notes`: `%C:\\notes%`,
		"":         "%%",
	}
	for in, want := range tests {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResourceWhere(t *testing.T) {
	sql, args, err := resourceWhere(models.ResourceFilter{}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if sql != "(1=1)" || len(args) != 0 {
		t.Errorf("empty filter = %q %v", sql, args)
	}

	sql, args, err = resourceWhere(models.ResourceFilter{
		Type:       models.ResourcePYQ,
		Branch:     "CSE",
		UploaderID: viewer,
		Search:     "os_lab",
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}

	want := "(r.type = ? AND r.branch = ? AND r.uploader_id = ? AND (r.title ILIKE ? OR r.description ILIKE ? OR r.course_code ILIKE ?))"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	pattern := `%os\_lab%`
	wantArgs := []interface{}{models.ResourcePYQ, "CSE", viewer, pattern, pattern, pattern}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestResourceListQuery_NewestFirst(t *testing.T) {
	sql, _, err := NewResourceRepository(nil).listQuery(models.ResourceFilter{Branch: "ME"}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(sql, "LEFT JOIN users u ON u.id = r.uploader_id") {
		t.Errorf("uploader name join missing: %q", sql)
	}
	if !strings.HasSuffix(sql, "WHERE (r.branch = $1) ORDER BY r.created_at DESC, r.id DESC") {
		t.Errorf("sql = %q", sql)
	}
}
