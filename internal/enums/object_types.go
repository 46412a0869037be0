package enums

type ObjectType string

const (
	OBJECT_TYPE_RECTANGLE   ObjectType = "rectangle"
	OBJECT_TYPE_CIRCLE      ObjectType = "circle"
	OBJECT_TYPE_TRIANGLE    ObjectType = "triangle"
	OBJECT_TYPE_LINE        ObjectType = "line"
	OBJECT_TYPE_ARROW       ObjectType = "arrow"
	OBJECT_TYPE_FREEHAND    ObjectType = "freehand"
	OBJECT_TYPE_TEXT        ObjectType = "text"
	OBJECT_TYPE_STICKY_NOTE ObjectType = "sticky_note"
	OBJECT_TYPE_IMAGE       ObjectType = "image"
)

var ObjectTypes = []ObjectType{
	OBJECT_TYPE_RECTANGLE,
	OBJECT_TYPE_CIRCLE,
	OBJECT_TYPE_TRIANGLE,
	OBJECT_TYPE_LINE,
	OBJECT_TYPE_ARROW,
	OBJECT_TYPE_FREEHAND,
	OBJECT_TYPE_TEXT,
	OBJECT_TYPE_STICKY_NOTE,
	OBJECT_TYPE_IMAGE,
}

func (ot ObjectType) IsValid() bool {
	for _, t := range ObjectTypes {
		if t == ot {
			return true
		}
	}
	return false
}
