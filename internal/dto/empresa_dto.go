package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEmpresaRequest struct {
	Nombre         string  `json:"nombre"         validate:"required,min=2,max=200"`
	Identificacion *string `json:"identificacion" validate:"omitempty,max=50"`
	Telefono       *string `json:"telefono"       validate:"omitempty,max=30"`
	Email          *string `json:"email"          validate:"omitempty,email"`
	Direccion      *string `json:"direccion"      validate:"omitempty,max=300"`
	Predeterminada bool    `json:"predeterminada"`
}

type ActualizarEmpresaRequest struct {
	Nombre         string  `json:"nombre"         validate:"omitempty,min=2,max=200"`
	Identificacion *string `json:"identificacion" validate:"omitempty,max=50"`
	Telefono       *string `json:"telefono"       validate:"omitempty,max=30"`
	Email          *string `json:"email"          validate:"omitempty,email"`
	Direccion      *string `json:"direccion"      validate:"omitempty,max=300"`
	Predeterminada *bool   `json:"predeterminada"`
	Activa         *bool   `json:"activa"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmpresaResponse struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	Identificacion *string `json:"identificacion"`
	Telefono       *string `json:"telefono"`
	Email          *string `json:"email"`
	Direccion      *string `json:"direccion"`
	Predeterminada bool    `json:"predeterminada"`
	Activa         bool    `json:"activa"`
}
