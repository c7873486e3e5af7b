package catalog

// Item is a catalog item as the backend returns it.
type Item struct {
	IDItem          int64    `json:"idItem"`
	ItemCategoryID  int64    `json:"itemCategoryId"`
	SellerUserID    *int64   `json:"sellerUserId,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	StockQuantity   int      `json:"stockQuantity"`
	Price           float64  `json:"price"`
	IsActive        bool     `json:"isActive"`
	IsFeatured      bool     `json:"isFeatured"`
	IsApproved      bool     `json:"isApproved"`
	ItemStatus      string   `json:"itemStatus"`
	RejectionReason *string  `json:"rejectionReason,omitempty"`
	CommissionRate  *float64 `json:"commissionRate,omitempty"`
	PlatformFee     *float64 `json:"platformFee,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
	Images          []Image  `json:"images,omitempty"`

	// Detail-view extras, present on single-item and admin responses.
	CategoryName string `json:"categoryName,omitempty"`
	SellerName   string `json:"sellerName,omitempty"`
	ImageCount   int    `json:"imageCount,omitempty"`
}

// Image is one of an item's ordered images.
type Image struct {
	IDItemImage *int64 `json:"idItemImage,omitempty"`
	ImageData   string `json:"imageData"`
	ImageOrder  int    `json:"imageOrder"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Category is a catalog category.
type Category struct {
	IDItemCategory int64   `json:"idItemCategory"`
	CategoryName   string  `json:"categoryName"`
	Description    *string `json:"description,omitempty"`
	IsActive       bool    `json:"isActive"`
	SortOrder      int     `json:"sortOrder"`
}

// SellerItemRequest holds the fields a seller submits when listing or
// updating an item.
type SellerItemRequest struct {
	ItemCategoryID int64   `json:"itemCategoryId"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	StockQuantity  int     `json:"stockQuantity"`
	Price          float64 `json:"price"`
	Images         []Image `json:"images,omitempty"`
	AgreeToTerms   bool    `json:"agreeToTerms,omitempty"`
}

// Pagination echoes the backend's paging metadata.
type Pagination struct {
	TotalCount int
	PageNumber int
	PageSize   int
	TotalPages int
}
