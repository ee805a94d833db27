package tickets

type newTicketRequest struct {
	Subject  string `form:"subject" validate:"notblank,max=200"`
	Body     string `form:"body" validate:"notblank,max=5000"`
	Priority string `form:"priority" validate:"oneof=low normal high urgent"`
}

type replyRequest struct {
	Body string `form:"body" validate:"notblank,max=5000"`
}
