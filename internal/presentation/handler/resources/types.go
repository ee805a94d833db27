package resources

type uploadRequest struct {
	Title   string   `form:"title" validate:"notblank,max=200"`
	Tags    []string `form:"tags" validate:"max=10,dive,notblank,max=32"`
	GroupID string   `form:"groupId" validate:"omitempty,max=64"`
}
