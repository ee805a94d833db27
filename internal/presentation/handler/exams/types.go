package exams

type answerRequest struct {
	QuestionID string `form:"questionId" validate:"required"`
	Choice     string `form:"choice"`
	Text       string `form:"text" validate:"max=5000"`
}

type submitRequest struct {
	Answers []answerRequest `form:"answers" validate:"required,min=1,dive"`
}
