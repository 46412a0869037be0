package enums

type PermissionLevel string

const (
	PERMISSION_VIEW  PermissionLevel = "view"
	PERMISSION_EDIT  PermissionLevel = "edit"
	PERMISSION_ADMIN PermissionLevel = "admin"
)

func (pl PermissionLevel) IsValid() bool {
	switch pl {
	case PERMISSION_VIEW, PERMISSION_EDIT, PERMISSION_ADMIN:
		return true
	}
	return false
}
