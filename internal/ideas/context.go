package ideas

import "context"

type contextKey string

const ideaCtxKey contextKey = "idea"

func SetIdeaInContext(ctx context.Context, idea *Idea) context.Context {
	return context.WithValue(ctx, ideaCtxKey, idea)
}

func GetIdeaFromContext(ctx context.Context) *Idea {
	idea, _ := ctx.Value(ideaCtxKey).(*Idea)
	return idea
}
