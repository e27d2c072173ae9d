// Package access はリクエスト主体の種別 (realm / tier) と所有者チェックを提供します。
package access

import "errors"

// ErrNotOwner は操作対象のリソースが本人のものでない場合のエラーです。
var ErrNotOwner = errors.New("resource is not owned by the current user")

// Realm は認証空間です。member と admin は互いに独立しています。
type Realm string

const (
	RealmGuest  Realm = "guest"
	RealmMember Realm = "member"
	RealmAdmin  Realm = "admin"
)

// Tier は会員の契約状態です。
type Tier int

const (
	TierGuest Tier = iota
	TierFree
	TierPremium
)

func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierPremium:
		return "premium"
	default:
		return "guest"
	}
}

// TierOf はログイン状態と契約状態から Tier を決めます。
func TierOf(authenticated, subscribed bool) Tier {
	switch {
	case !authenticated:
		return TierGuest
	case subscribed:
		return TierPremium
	default:
		return TierFree
	}
}

// Owned は所有者を持つリソースです。
type Owned interface {
	OwnerID() int
}

// CanModify は userID が res の所有者であるかを判定します。
// 未ログイン (0以下) や nil のリソースは常に拒否します。
func CanModify(userID int, res Owned) bool {
	if userID <= 0 || res == nil {
		return false
	}
	return res.OwnerID() == userID
}

// Authorize は CanModify が false の場合に ErrNotOwner を返します。
func Authorize(userID int, res Owned) error {
	if !CanModify(userID, res) {
		return ErrNotOwner
	}
	return nil
}
