package model

type Store struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	CNPJ        string `json:"cnpj,omitempty"`
	PixKey      string `json:"-"`
	Address     string `json:"address,omitempty"`
	Favorite    bool   `json:"favorite,omitempty"`
}

type Product struct {
	ID          string  `json:"id"`
	StoreID     string  `json:"store_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

type ProductCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
