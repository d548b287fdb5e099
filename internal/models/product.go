package models

// Product est une entrée du catalogue statique. Les noms JSON reprennent ceux
// du client web (productName, img, quanty).
type Product struct {
	ID          int     `json:"id" bson:"id"`
	ProductName string  `json:"productName" bson:"productName"`
	Price       float64 `json:"price" bson:"price"`
	Img         string  `json:"img" bson:"img"`
	Quanty      int     `json:"quanty" bson:"quanty"`
}
