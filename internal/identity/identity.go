// Package identity 描述当前请求的用户身份与能力集。
//
// 管理员能力由注入的 Resolver 判定：配置中唯一的管理员邮箱精确匹配即为 admin，
// 业务代码只检查 Capability，不再比较字面量邮箱。
package identity

import (
	"context"
	"strings"
)

// Capability 能力集
type Capability string

const (
	CapabilityUser  Capability = "user"
	CapabilityAdmin Capability = "admin"
)

// Identity 当前用户身份（来自外部身份提供方）
type Identity struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	PhotoURL    string     `json:"photo_url"`
	Capability  Capability `json:"capability"`
}

// IsAdmin 是否具备管理员能力
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Capability == CapabilityAdmin
}

// Resolver 根据身份提供方返回的信息计算能力集
type Resolver struct {
	adminEmail string
}

// NewResolver 创建 Resolver；adminEmail 为唯一管理员邮箱
func NewResolver(adminEmail string) *Resolver {
	return &Resolver{adminEmail: strings.TrimSpace(adminEmail)}
}

// Resolve 组装 Identity，邮箱与管理员邮箱完全相等时授予 admin
func (r *Resolver) Resolve(uid, email, displayName, photoURL string) *Identity {
	capability := CapabilityUser
	if r.adminEmail != "" && email == r.adminEmail {
		capability = CapabilityAdmin
	}
	return &Identity{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Capability:  capability,
	}
}

type ctxKey struct{}

// WithIdentity 将身份写入 context
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext 从 context 取出身份
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}
