package request

type PlaceBidRequest struct {
	Price int32 `json:"price" binding:"min=0"`
}

type UpdateBidRequest struct {
	Price int32 `json:"price" binding:"min=0"`
}
