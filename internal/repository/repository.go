// Package repository persiste les comptes utilisateurs et leur panier.
//
// Le panier vit dans le document utilisateur. Chaque écriture du panier est
// conditionnée par le numéro de version lu : une écriture concurrente fait
// échouer la seconde avec ErrConflict au lieu d'écraser la première.
package repository

import "errors"

var (
	ErrNotFound       = errors.New("utilisateur introuvable")
	ErrConflict       = errors.New("conflit de version du panier")
	ErrDuplicateEmail = errors.New("email déjà enregistré")
)
