package models

// UserProfile holds the citizen attributes consumed during document
// generation. Profiles are read-only to this service; the identity
// provider owns them.
type UserProfile struct {
	CPF          string `json:"cpf" bson:"cpf"`
	Name         string `json:"name" bson:"name"`
	Logradouro   string `json:"logradouro" bson:"logradouro"`
	Numero       string `json:"numero" bson:"numero"`
	Complemento  string `json:"complemento,omitempty" bson:"complemento,omitempty"`
	Bairro       string `json:"bairro" bson:"bairro"`
	Municipio    string `json:"municipio" bson:"municipio"`
	Estado       string `json:"estado" bson:"estado"`
	CEP          string `json:"cep" bson:"cep"`
	RG           string `json:"rg" bson:"rg"`
	OrgaoEmissor string `json:"orgao_emissor" bson:"orgao_emissor"`
	IsAdmin      bool   `json:"is_admin" bson:"is_admin"`
}
