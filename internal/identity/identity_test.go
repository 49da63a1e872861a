package identity

import (
	"context"
	"testing"
)

func TestResolver_SingleAdmin(t *testing.T) {
	r := NewResolver("admin@college.edu")

	admin := r.Resolve("u1", "admin@college.edu", "Admin", "")
	if !admin.IsAdmin() {
		t.Error("管理员邮箱应获得 admin 能力")
	}

	user := r.Resolve("u2", "student@college.edu", "Student", "https://img/x.png")
	if user.IsAdmin() {
		t.Error("普通邮箱不应获得 admin 能力")
	}
	if user.Capability != CapabilityUser {
		t.Errorf("期望 user 能力，实际 %s", user.Capability)
	}
}

func TestResolver_ExactMatchOnly(t *testing.T) {
	r := NewResolver("admin@college.edu")
	for _, email := range []string{"ADMIN@college.edu", " admin@college.edu", "admin@college.edu.cn"} {
		if r.Resolve("u", email, "", "").IsAdmin() {
			t.Errorf("%q 不应被视为管理员（精确匹配）", email)
		}
	}
}

func TestResolver_EmptyAdminEmail(t *testing.T) {
	r := NewResolver("")
	if r.Resolve("u", "", "", "").IsAdmin() {
		t.Error("未配置管理员时空邮箱不应成为管理员")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("空 context 不应取到身份")
	}
	id := &Identity{UID: "u1"}
	got, ok := FromContext(WithIdentity(context.Background(), id))
	if !ok || got.UID != "u1" {
		t.Errorf("应取回写入的身份，实际 %+v", got)
	}
}
