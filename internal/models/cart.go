package models

// CartItem est une ligne du panier d'un utilisateur.
// Il existe au plus une ligne par produit, avec Quanty >= 1.
type CartItem struct {
	ID          int     `json:"id" bson:"id"`
	ProductName string  `json:"productName" bson:"productName"`
	Price       float64 `json:"price" bson:"price"`
	Quanty      int     `json:"quanty" bson:"quanty"`
	Img         string  `json:"img,omitempty" bson:"img,omitempty"`
}
