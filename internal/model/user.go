package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User は登録済みユーザーです。Password には bcrypt のダイジェストのみを保存し、JSON には出力しません。
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Mobile   string             `bson:"mobile" json:"mobile"`
	Password string             `bson:"password" json:"-"`
}

// NewUser は必須項目を検証してユーザーを作成します。passwordHash はハッシュ済みの値を渡してください。
func NewUser(name, email, mobile, passwordHash string) (*User, error) {
	check := fieldChecker{model: "User"}
	check.require("name", name)
	check.require("email", email)
	check.require("mobile", mobile)
	check.require("password", passwordHash)
	if err := check.err(); err != nil {
		return nil, err
	}
	return &User{
		Name:     name,
		Email:    email,
		Mobile:   mobile,
		Password: passwordHash,
	}, nil
}
