package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"ActivityAdmin/logger"
	"ActivityAdmin/service"
)

// AccountHandler serves login and account management.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler 创建账户处理器
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAccountRequest represents the account creation request body
type CreateAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

// LoginHandler handles user login requests
func (h *AccountHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// LogoutHandler revokes the current token.
func (h *AccountHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	if err := h.accounts.Logout(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// GetAccountHandler returns the caller's account.
func (h *AccountHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	u, err := h.accounts.GetAccount(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

// ChangePasswordHandler 修改密码，成功后需要重新登录
func (h *AccountHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	if err := h.accounts.ChangePassword(r.Context(), p, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	logger.Info("[Account] 密码修改成功", logger.String("username", p.Username))
	writeOK(w)
}

// VerifyPasswordHandler 校验旧密码
func (h *AccountHandler) VerifyPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	ok, err := h.accounts.VerifyPassword(r.Context(), p, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"valid": ok})
}

// ChangeEmailHandler 修改邮箱
func (h *AccountHandler) ChangeEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	u, err := h.accounts.ChangeEmail(r.Context(), p, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

// UsernameAvailableHandler 检查用户名是否可用
func (h *AccountHandler) UsernameAvailableHandler(w http.ResponseWriter, r *http.Request) {
	ok, err := h.accounts.IsUsernameAvailable(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"available": ok})
}

// EmailAvailableHandler 检查邮箱是否可用
func (h *AccountHandler) EmailAvailableHandler(w http.ResponseWriter, r *http.Request) {
	ok, err := h.accounts.IsEmailAvailable(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"available": ok})
}

// ListAccountsHandler 分页查询普通管理员
func (h *AccountHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	res, err := h.accounts.ListAccounts(r.Context(), p, r.URL.Query().Get("username"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// CreateAccountHandler 创建管理员账户
func (h *AccountHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	u, err := h.accounts.CreateAccount(r.Context(), p, req.Username, req.Password, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, u)
}

// DeleteAccountHandler 删除管理员账户
func (h *AccountHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	if err := h.accounts.DeleteAccount(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// ResetPasswordHandler 重置管理员密码
func (h *AccountHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	if err := h.accounts.ResetPassword(r.Context(), p, mux.Vars(r)["id"], req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}
