package feed

type newPostRequest struct {
	Content string   `form:"content" validate:"notblank,max=2000"`
	Tags    []string `form:"tags" validate:"max=10,dive,notblank,max=32"`
}
