package document

import "time"

type FileDataResponse struct {
	ID          string    `json:"id"`
	Owner       string    `json:"username"`
	DisplayName string    `json:"fileName"`
	UploadedAt  time.Time `json:"uploadTime"`
	Seen        bool      `json:"seenByUser"`
}

type ListQuery struct {
	UserName string `form:"userName" binding:"omitempty,max=255"`
}

func toResponse(d *Document) FileDataResponse {
	return FileDataResponse{
		ID:          d.ID,
		Owner:       d.Owner,
		DisplayName: d.DisplayName,
		UploadedAt:  d.UploadedAt,
		Seen:        d.Seen,
	}
}

func toResponses(docs []*Document) []FileDataResponse {
	out := make([]FileDataResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(d))
	}
	return out
}
