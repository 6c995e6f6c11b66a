package models

// Role identifies a position in the media unit hierarchy.
type Role string

const (
	RoleKetuaMedia  Role = "ketua_media"
	RoleSetiausaha  Role = "setiausaha"
	RoleJQC         Role = "jqc"
	RoleKetuaVideo  Role = "ketua_video"
	RoleKetuaPoster Role = "ketua_poster"
	RoleMember      Role = "member"
)

// User is an entry in the static credential table. The table is seeded at
// process start and never mutated; passwords are stored and compared in
// plaintext by contract.
type User struct {
	Username   string `json:"username"`
	Password   string `json:"-"`
	FullName   string `json:"full_name"`
	Role       Role   `json:"role"`
	RoleName   string `json:"role_name"`
	ProfilePic string `json:"profile_pic"`
}

// UserInfo carries the public fields of a user, the only shape that leaves
// the identity service.
type UserInfo struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Role       Role   `json:"role"`
	RoleName   string `json:"role_name"`
	ProfilePic string `json:"profile_pic"`
}

// Info strips the credential from a user record.
func (u User) Info() UserInfo {
	return UserInfo{
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       u.Role,
		RoleName:   u.RoleName,
		ProfilePic: u.ProfilePic,
	}
}
